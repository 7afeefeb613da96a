package resources

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown or unsupported file. */
	ResourceTypeNone ResourceType = iota
	/** @brief Text resource type. */
	ResourceTypeText
	/** @brief Binary resource type. */
	ResourceTypeBinary
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Material resource type. */
	ResourceTypeMaterial
	/** @brief Shader resource type (or more accurately shader config). */
	ResourceTypeShader
	/** @brief Model resource type (Wavefront geometry). */
	ResourceTypeModel
	/** @brief Custom resource type. Used by loaders outside the core engine. */
	ResourceTypeCustom
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeCustom:
		return "custom"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief Unique identifier assigned when the resource is loaded. */
	ID string
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The type of the resource. */
	Type ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

// Geometry returns the resource data as geometry, or nil when the resource
// holds something else.
func (r *Resource) Geometry() *Geometry {
	g, ok := r.Data.(*Geometry)
	if !ok {
		return nil
	}
	return g
}

package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// MetricsState keeps a rolling average over the last AVG_COUNT model loads.
type MetricsState struct {
	mutex sync.Mutex

	LoadAVGCounter uint8
	MStimes        [AVG_COUNT]float64
	MSavg          float64
	Loads          uint64
	Faces          uint64
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{
			MStimes: [AVG_COUNT]float64{0},
		}
	})
	return nil
}

// MetricsUpdate records one finished load producing the given number of faces.
func MetricsUpdate(elapsed time.Duration, faces int) {
	metricsState.mutex.Lock()
	defer metricsState.mutex.Unlock()

	loadMS := float64(elapsed) / float64(time.Millisecond)
	metricsState.MStimes[metricsState.LoadAVGCounter] = loadMS
	metricsState.Loads++
	metricsState.Faces += uint64(faces)

	samples := uint64(AVG_COUNT)
	if metricsState.Loads < samples {
		samples = metricsState.Loads
	}
	sum := 0.0
	for i := uint64(0); i < samples; i++ {
		sum += metricsState.MStimes[i]
	}
	metricsState.MSavg = sum / float64(samples)

	metricsState.LoadAVGCounter++
	metricsState.LoadAVGCounter %= AVG_COUNT
}

// MetricsLoadTime returns the average load time in milliseconds.
func MetricsLoadTime() float64 {
	if metricsState == nil {
		return 0
	}
	metricsState.mutex.Lock()
	defer metricsState.mutex.Unlock()
	return metricsState.MSavg
}

// MetricsLoads returns how many loads and faces have been recorded.
func MetricsLoads() (uint64, uint64) {
	if metricsState == nil {
		return 0, 0
	}
	metricsState.mutex.Lock()
	defer metricsState.mutex.Unlock()
	return metricsState.Loads, metricsState.Faces
}

package model

type PerformanceDataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type PerformanceSeries struct {
	Name          string                 `json:"name"`
	FullName      string                 `json:"fullName,omitempty"`
	Data          []PerformanceDataPoint `json:"data"`
	CurrentReturn float64                `json:"currentReturn"`
	Color         string                 `json:"color,omitempty"`
}

// NewPerformanceSeries fills CurrentReturn from the last point.
func NewPerformanceSeries(name string, data []PerformanceDataPoint) PerformanceSeries {
	if data == nil {
		data = []PerformanceDataPoint{}
	}
	s := PerformanceSeries{Name: name, Data: data}
	if len(data) > 0 {
		s.CurrentReturn = data[len(data)-1].Value
	}
	return s
}

type Benchmark struct {
	Label  string
	Symbol string
	Name   string
	Color  string
}

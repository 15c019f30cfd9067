package observability

type Label struct {
	Key   string
	Value string
}

func L(k, v string) Label {
	return Label{Key: k, Value: v}
}

type MetricOpt struct {
	Help        string
	Buckets     []float64
	ConstLabels []Label
	LabelKeys   []string
}

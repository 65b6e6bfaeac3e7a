package telemetry

// KPIStyle carries the presentation hints a dashboard attaches to a KPI.
// The lookup is exhaustive over the generated KPI names with a guaranteed
// default arm so an unknown name degrades to the neutral style instead of a
// missing entry.
type KPIStyle struct {
	Accent string `json:"accent"`
	Icon   string `json:"icon"`
}

var defaultKPIStyle = KPIStyle{Accent: "slate", Icon: "gauge"}

var kpiStyles = map[string]KPIStyle{
	"Overall SEC":          {Accent: "cyan", Icon: "zap"},
	"Total Energy":         {Accent: "amber", Icon: "flame"},
	"Plant Efficiency":     {Accent: "green", Icon: "trending-up"},
	"Total Throughput":     {Accent: "blue", Icon: "factory"},
	"Capacity Utilization": {Accent: "violet", Icon: "percent"},
	"Energy Cost":          {Accent: "rose", Icon: "dollar-sign"},
}

func StyleFor(kpiName string) KPIStyle {
	if style, ok := kpiStyles[kpiName]; ok {
		return style
	}
	return defaultKPIStyle
}

package linesplitter

var Version string

// buildVersion gets replaced while building with
// go build -ldflags "-X github.com/geofabrik/LinestringsSplitter.buildVersion=1234"
var buildVersion string

func init() {
	Version = "1.0.0"
	if buildVersion != "" {
		Version += "-" + buildVersion
	}
}

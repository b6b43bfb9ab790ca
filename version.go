package osmquery

var Version string

// buildVersion gets replaced while building with
// go build -ldflags "-X github.com/osmtools/osmquery.buildVersion=+dev"
var buildVersion string

func init() {
	Version = "0.1.0"
	Version += buildVersion
}

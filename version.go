package slidedom

import "fmt"

// Version information for the slidedom library.
const (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 0
)

// Version is the full version string of the slidedom library.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// appVersion is written to docProps/app.xml.
var appVersion = fmt.Sprintf("%d.%04d", VersionMajor*10+VersionMinor, VersionPatch)

package tamashi

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/oolestudio/tamashi.Version=...".
var Version = "0.1.0-dev"

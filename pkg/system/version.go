package system

// Version is the build version, overridden at link time via
// -ldflags "-X github.com/campus-tools/ecard-notify/pkg/system.Version=...".
var Version = "dev"

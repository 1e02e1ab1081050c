package types

// AppName is the service name used in health responses and logs
const AppName = "pypi-scorecards"

// Version is the application version, overridden at build time via ldflags
var Version = "dev"

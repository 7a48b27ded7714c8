package types

// Version is the tap2bin release version.
// Reported by `tap2bin version` and stamped into JSON reports.
const Version = "0.3.0"

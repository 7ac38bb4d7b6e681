package bloom

// Version is the release of this module, reported by `bloom version`.
const Version = "0.3.0"

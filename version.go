package neobabu

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/Zitronenjoghurt/neobabu-sub000.Version=v1.2.3".
var Version = "dev"

package lambda

// Version and BuildDate identify the build; override with
// -ldflags "-X github.com/bjn7/Lambda.Version=... ".
var (
	Version   = "0.1.0"
	BuildDate = "dev"
)

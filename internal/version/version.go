package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Short возвращает только версию сборки.
func Short() string { return version }

// String возвращает полную информацию о сборке, заданную через -ldflags.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}

package version

import "fmt"

// Значения заполняются на этапе сборки через -ldflags, например:
//
//	go build -ldflags "-X .../internal/version.version=v1.2.3"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// GetVersion возвращает версию сборки.
func GetVersion() string { return version }

// GetCommit возвращает коммит сборки.
func GetCommit() string { return commit }

// GetDate возвращает дату сборки.
func GetDate() string { return date }

// String возвращает сводку о сборке в одну строку.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}

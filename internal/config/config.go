package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rdwr-valentineg/sysdiag-battery/internal/selector"
)

type config struct {
	ArchivePath  string
	TargetDir    string
	Prefix       string
	TimeColumn   string
	CycleColumn  string
	MaxColumns   int
	JSONOutput   bool
	LogLevelFlag string
}

var Config *config

func InitConfig() error {
	if Config != nil {
		return nil // Already initialized
	}

	targetDir := flag.String("dir", selector.DefaultTargetDir, "Virtual directory inside the archive to search")
	prefix := flag.String("prefix", selector.DefaultPrefix, "Filename prefix of daily battery logs")
	timeColumn := flag.String("time-column", selector.DefaultTimeColumn, "CSV column holding the charge timestamp")
	cycleColumn := flag.String("cycle-column", selector.DefaultCycleColumn, "CSV column holding the cycle count")
	maxColumns := flag.Int("max-columns", 256, "Maximum CSV header columns before failing")
	jsonOutput := flag.Bool("json", false, "Emit the report as JSON instead of plain text")
	logLevelFlag := flag.String("log-level", "info", "Log level (none, error, info, debug)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] <Sysdiagnose Report tar.gz File>\nExample: %s Sysdiagnose_.tar.gz\n\n",
			os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	Config = &config{
		TargetDir:    *targetDir,
		Prefix:       *prefix,
		TimeColumn:   *timeColumn,
		CycleColumn:  *cycleColumn,
		MaxColumns:   *maxColumns,
		JSONOutput:   *jsonOutput,
		LogLevelFlag: *logLevelFlag,
	}

	if flag.NArg() == 1 {
		Config.ArchivePath = flag.Arg(0)
	}

	return Config.Validate()
}

func (c *config) Validate() error {
	if c.ArchivePath == "" {
		return errors.New("exactly one archive path argument is required")
	}
	if c.TargetDir == "" {
		return errors.New("target directory cannot be empty")
	}
	if c.Prefix == "" {
		return errors.New("filename prefix cannot be empty")
	}
	if c.TimeColumn == "" || c.CycleColumn == "" {
		return errors.New("column names cannot be empty")
	}
	if c.MaxColumns <= 0 {
		return errors.New("max columns must be greater than zero")
	}
	return nil
}

func GetArchivePath() string  { return Config.ArchivePath }
func GetTargetDir() string    { return Config.TargetDir }
func GetPrefix() string       { return Config.Prefix }
func GetTimeColumn() string   { return Config.TimeColumn }
func GetCycleColumn() string  { return Config.CycleColumn }
func GetMaxColumns() int      { return Config.MaxColumns }
func GetJSONOutput() bool     { return Config.JSONOutput }
func GetLogLevelFlag() string { return Config.LogLevelFlag }

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/nereidnetwork/nereidd/infrastructure/logger"
	"github.com/nereidnetwork/nereidd/version"
)

const (
	defaultConfigFilename  = "nereidd.conf"
	defaultDataDirname     = "data"
	defaultLogLevel        = "info"
	defaultLogDirname      = "logs"
	defaultLogFilename     = "nereidd.log"
	defaultErrLogFilename  = "nereidd_err.log"
	defaultMaxMempoolBytes = 1_000_000_000
	defaultMaxMempoolCount = 1_000_000
)

var (
	// DefaultAppDir is the default home directory for nereidd.
	DefaultAppDir = btcutil.AppDataDir("nereidd", false)

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultAppDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultAppDir, defaultLogDirname)
)

// Flags defines the command-line configuration options for nereidd.
type Flags struct {
	ShowVersion     bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile      string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir         string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir          string `long:"logdir" description:"Directory to log output"`
	DebugLevel      string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	MaxMempoolBytes uint64 `long:"maxmempoolbytes" description:"Maximum total serialized size of mempool transactions"`
	MaxMempoolCount int    `long:"maxmempoolcount" description:"Maximum number of mempool transactions"`
	Compose         bool   `long:"compose" description:"Produce blocks: keep and upgrade transactions this node could include in a block"`
	GuesserAddress  string `long:"guesseraddress" description:"Hex-encoded digest guesser rewards are locked to"`
	NetworkFlags
}

// Config holds the parsed command-line options together with the derived
// values the daemon actually consumes.
type Config struct {
	*Flags
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// LoadConfig initializes and parses the config using command line options
// and an optional config file.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	if cfgFlags.ShowVersion {
		fmt.Println(version.Version())
		os.Exit(0)
	}

	// A config file given on the command line overrides the default one.
	// The default file is optional; an explicitly named one is not.
	configFile := defaultConfigFile
	explicit := cfgFlags.ConfigFile != ""
	if explicit {
		configFile = cleanAndExpandPath(cfgFlags.ConfigFile)
	}
	iniParser := flags.NewIniParser(parser)
	err = iniParser.ParseFile(configFile)
	if err != nil {
		if explicit || !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "failed to parse config file %s", configFile)
		}
	} else {
		// CLI flags take precedence over the config file.
		_, err = parser.Parse()
		if err != nil {
			return nil, err
		}
	}

	err = cfgFlags.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.DataDir = filepath.Join(cfg.DataDir, cfg.NetParams().Name)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.NetParams().Name)

	if _, ok := logger.LevelFromString(cfg.DebugLevel); !ok {
		return nil, errors.Errorf("the specified debug level [%s] is invalid", cfg.DebugLevel)
	}
	if cfg.MaxMempoolCount <= 0 {
		return nil, errors.Errorf("maxmempoolcount must be positive, got %d", cfg.MaxMempoolCount)
	}

	initLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename))
	level, _ := logger.LevelFromString(cfg.DebugLevel)
	logger.SetLogLevels(level)

	return cfg, nil
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:      "",
		DataDir:         defaultDataDir,
		LogDir:          defaultLogDir,
		DebugLevel:      defaultLogLevel,
		MaxMempoolBytes: defaultMaxMempoolBytes,
		MaxMempoolCount: defaultMaxMempoolCount,
	}
}

func initLog(logFile, errLogFile string) {
	err := logger.DefaultBackend().AddLogFile(logFile, logger.LevelTrace)
	if err != nil {
		log.Warnf("Error adding log file %s as log rotator for level %s: %s",
			logFile, logger.LevelTrace, err)
	}
	err = logger.DefaultBackend().AddLogFile(errLogFile, logger.LevelWarn)
	if err != nil {
		log.Warnf("Error adding log file %s as log rotator for level %s: %s",
			errLogFile, logger.LevelWarn, err)
	}
}

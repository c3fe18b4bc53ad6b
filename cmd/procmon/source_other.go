//go:build !linux

package main

import (
	"fmt"

	"procmon/config"
	"procmon/process"
	"procmon/process_psutil"
)

func newSource(cfg *config.Config) (process.Lister, process.Terminator, error) {
	if cfg.Source == config.SourceProcfs {
		return nil, nil, fmt.Errorf("the %s source needs linux, use --source %s", config.SourceProcfs, config.SourcePsutil)
	}
	return process_psutil.NewLister(), process_psutil.Signaller{}, nil
}

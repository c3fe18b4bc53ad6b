//go:build linux

package main

import (
	"procmon/config"
	"procmon/process"
	"procmon/process_linux"
	"procmon/process_psutil"
)

func newSource(cfg *config.Config) (process.Lister, process.Terminator, error) {
	if cfg.Source == config.SourcePsutil {
		return process_psutil.NewLister(), process_psutil.Signaller{}, nil
	}

	lister := process_linux.NewLister(
		process_linux.WithRoot(cfg.ProcRoot),
		process_linux.WithPasswd(cfg.Passwd),
	)
	return lister, process_linux.NewSignaller(cfg.ProcRoot), nil
}

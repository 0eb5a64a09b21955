package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/bootstats/cmd/bootstats/cmd"
	"github.com/armadaproject/bootstats/internal/common"
	"github.com/armadaproject/bootstats/internal/common/bootstatserrors"
)

func main() {
	common.ConfigureLogging()
	err := cmd.RootCmd().Execute()
	if err != nil {
		log.Errorf("%+v", err)
	}
	os.Exit(bootstatserrors.ExitCode(err))
}

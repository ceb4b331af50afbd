package main

import (
	"github.com/anchora-network/anchora-orchestrator/cmd"
	"github.com/golang/glog"
	"github.com/lainio/err2"
)

func main() {
	defer err2.Catch(func(err error) error {
		glog.Error(err)
		glog.Flush()
		return nil
	})

	cmd.Execute()
}

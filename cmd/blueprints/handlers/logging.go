package handlers

import (
	"os"

	"github.com/go-logr/logr"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// newLogger builds the CLI logger and installs it as the controller-runtime
// logger. Debug switches to development mode, which logs V(1) messages.
var newLogger = func(debug bool) logr.Logger {
	logger := zap.New(zap.UseDevMode(debug), zap.WriteTo(os.Stderr))
	ctrllog.SetLogger(logger)
	return logger
}

package proc

import (
	"os"
	"testing"
)

func TestController_ExistsOwnProcess(t *testing.T) {
	controller := NewController()

	if !controller.Exists(os.Getpid()) {
		t.Error("own pid reported as dead")
	}
}

func TestController_ExistsInvalidPids(t *testing.T) {
	controller := NewController()

	if controller.Exists(0) {
		t.Error("pid 0 reported as alive")
	}
	if controller.Exists(-1) {
		t.Error("negative pid reported as alive")
	}
}

func TestController_ExistsUnusedPid(t *testing.T) {
	controller := NewController()

	// Pid well beyond the default pid_max; expected to be unassigned.
	if controller.Exists(1 << 28) {
		t.Skip("improbable pid is in use on this host")
	}
}

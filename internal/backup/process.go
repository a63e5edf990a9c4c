package backup

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
)

var (
	listProcessesFunc = ps.Processes
	getpidFunc        = os.Getpid
)

// OtherInstances returns the PIDs of running habitual processes other than
// this one.
func OtherInstances() ([]int, error) {
	procs, err := listProcessesFunc()
	if err != nil {
		return nil, err
	}

	self := getpidFunc()
	var pids []int
	for _, p := range procs {
		if p == nil || p.Pid() == self {
			continue
		}
		if isAppExecutable(p.Executable()) {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

func isAppExecutable(name string) bool {
	base := strings.TrimSuffix(filepath.Base(name), ".exe")
	return strings.EqualFold(base, constants.AppName)
}

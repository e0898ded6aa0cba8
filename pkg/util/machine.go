package util

import (
	"os"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

var (
	machineID      string
	machineIDMutex sync.Mutex
)

// GetMachineID 获取当前机器的唯一标识符
// 优先使用 machineid 库，失败则尝试读取主板序列号
// 全部失败返回空字符串，调用者自行判断
func GetMachineID() string {
	machineIDMutex.Lock()
	defer machineIDMutex.Unlock()

	if machineID != "" {
		return machineID
	}

	id, err := machineid.ID()
	if err == nil && id != "" {
		machineID = id
		return machineID
	}

	if content, err := os.ReadFile("/sys/class/dmi/id/board_serial"); err == nil {
		if serial := strings.TrimSpace(string(content)); serial != "" {
			machineID = serial
			return machineID
		}
	}

	return ""
}

package global

import (
	"github.com/haierkeys/team-notes-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Team Notes Service"
	// Version 构建时注入
	Version string = "dev"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}

package main

import (
	"referral_admin/config"
)

// 程序入口
// 初始化存储网关，创建Fiber应用并启动HTTP服务
func main() {
	// 初始化应用程序（加载配置、创建存储网关）
	config.InitApp()

	// 创建并配置Fiber应用
	app := config.SetupApp()

	// 启动服务器并处理优雅关闭
	config.StartServer(app)
}

// zkgeo 命令行：坐标承诺、电路导出与证明
package main

func main() {
	Execute()
}

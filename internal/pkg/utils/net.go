// internal/pkg/utils/net.go
package utils

import "net"

// GetOutboundIP 获取本机对外通信使用的 IP 地址。
// 通过一次不真正建连的 UDP "拨号" 让内核选择出口网卡。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

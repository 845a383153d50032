package net

import (
	"net"
	"os"
)

const DefaultIp = "127.0.0.1"

type hostInfo struct {
	hostName  string
	processId int
	ipAddress []string
}

func (h *hostInfo) refresh() {
	//主机名
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	h.hostName = hostname
	//进程id
	h.processId = os.Getpid()
	//ip 信息
	interfaces, err := net.Interfaces()
	if err != nil {
		return
	}
	for _, inter := range interfaces {
		if inter.Flags&net.FlagUp == 0 ||
			inter.Flags&net.FlagLoopback != 0 ||
			inter.Flags&net.FlagPointToPoint != 0 {
			continue
		}
		addrs, err2 := inter.Addrs()
		if err2 != nil {
			continue
		}
		for _, addr := range addrs {
			ipn, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipn.IP.To4()
			if ip4 == nil || ip4.IsLoopback() || ip4.IsMulticast() {
				continue
			}
			h.ipAddress = append(h.ipAddress, ip4.String())
		}
	}
}

// 对外接口
var hi *hostInfo

func init() {
	h := &hostInfo{}
	h.refresh()
	hi = h
}

func HostName() string {
	return hi.hostName
}

func ProcessId() int {
	return hi.processId
}

// IpAddress 本机非回环 IPv4 地址, 没有时返回 DefaultIp
func IpAddress() []string {
	v := hi.ipAddress
	if len(v) == 0 {
		return []string{DefaultIp}
	}
	return v
}

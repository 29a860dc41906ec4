package netutil

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"net"
)

// CIDRSubnet calculates a subnet address given a network address, a netmask size increase, and a subnet number.
// This mimics the behavior of Terraform's cidrsubnet function.
//
// Only IPv4 prefixes are supported.
func CIDRSubnet(prefix string, newbits int, netnum int) (string, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if network.IP.To4() == nil {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}

	maskSize, totalBits := network.Mask.Size()
	newMaskSize := maskSize + newbits
	if newMaskSize > totalBits {
		return "", fmt.Errorf("prefix extension of %d bits is too large for %s", newbits, prefix)
	}

	maxSubnets := 1 << newbits
	if netnum < 0 || netnum >= maxSubnets {
		return "", fmt.Errorf("subnet number %d exceeds max subnets %d", netnum, maxSubnets)
	}

	subnetSize := uint64(1) << (totalBits - newMaskSize)
	// #nosec G115
	ipInt := ipToUint(network.IP.To4()) + uint64(netnum)*subnetSize

	return fmt.Sprintf("%s/%d", uintToIP(ipInt).String(), newMaskSize), nil
}

// SplitCIDR divides prefix into count equally sized subnets, using the
// smallest prefix extension that fits count.
func SplitCIDR(prefix string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("subnet count must be positive, got %d", count)
	}

	newbits := bits.Len(uint(count - 1))
	subnets := make([]string, 0, count)
	for i := range count {
		subnet, err := CIDRSubnet(prefix, newbits, i)
		if err != nil {
			return nil, err
		}
		subnets = append(subnets, subnet)
	}
	return subnets, nil
}

func ipToUint(ip net.IP) uint64 {
	return uint64(binary.BigEndian.Uint32(ip))
}

func uintToIP(val uint64) net.IP {
	ip := make(net.IP, 4)
	// #nosec G115
	binary.BigEndian.PutUint32(ip, uint32(val))
	return ip
}

package ec2

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/blueprints/internal/network"
)

// ProviderName identifies handles produced by this package.
const ProviderName = "aws"

const (
	// DefaultCIDR is the address range of created VPCs.
	DefaultCIDR = "10.0.0.0/16"
	// DefaultMaxAZs bounds how many availability zones a created VPC spans.
	DefaultMaxAZs = 2
	// DefaultNATTimeout bounds the wait for each NAT gateway.
	DefaultNATTimeout = 10 * time.Minute
)

// VPCResolver implements network.Resolver on EC2.
type VPCResolver struct {
	api        API
	cidr       string
	maxAZs     int
	natTimeout time.Duration
	natMinWait time.Duration
	tags       map[string]string
}

// Option configures a VPCResolver.
type Option func(*VPCResolver)

// WithCIDR sets the CIDR block of created VPCs.
func WithCIDR(cidr string) Option {
	return func(r *VPCResolver) {
		if cidr != "" {
			r.cidr = cidr
		}
	}
}

// WithMaxAZs sets how many availability zones a created VPC spans.
func WithMaxAZs(n int) Option {
	return func(r *VPCResolver) {
		if n > 0 {
			r.maxAZs = n
		}
	}
}

// WithNATTimeout sets how long to wait for each NAT gateway.
func WithNATTimeout(d time.Duration) Option {
	return func(r *VPCResolver) {
		if d > 0 {
			r.natTimeout = d
		}
	}
}

// WithTags adds tags to every created resource.
func WithTags(tags map[string]string) Option {
	return func(r *VPCResolver) {
		for k, v := range tags {
			r.tags[k] = v
		}
	}
}

// NewVPCResolver creates a resolver over api.
func NewVPCResolver(api API, opts ...Option) *VPCResolver {
	r := &VPCResolver{
		api:        api,
		cidr:       DefaultCIDR,
		maxAZs:     DefaultMaxAZs,
		natTimeout: DefaultNATTimeout,
		natMinWait: 15 * time.Second,
		tags:       map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewVPCResolverForRegion loads the default AWS configuration for region
// and creates a resolver backed by the EC2 service.
func NewVPCResolverForRegion(ctx context.Context, region string, opts ...Option) (*VPCResolver, error) {
	var loadOpts []func(*config.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewVPCResolver(ec2.NewFromConfig(cfg), opts...), nil
}

// LookupDefault implements network.Resolver.
func (r *VPCResolver) LookupDefault(ctx context.Context) (network.Handle, error) {
	out, err := r.api.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{{Name: aws.String("is-default"), Values: []string{"true"}}},
	})
	if err != nil {
		return network.Handle{}, fmt.Errorf("failed to describe default VPC: %w", err)
	}
	if len(out.Vpcs) == 0 {
		return network.Handle{}, fmt.Errorf("account has no default VPC in this region")
	}
	return r.describe(ctx, out.Vpcs[0])
}

// Lookup implements network.Resolver.
func (r *VPCResolver) Lookup(ctx context.Context, id string) (network.Handle, error) {
	out, err := r.api.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{id}})
	if err != nil {
		return network.Handle{}, fmt.Errorf("failed to describe VPC %s: %w", id, err)
	}
	if len(out.Vpcs) == 0 {
		return network.Handle{}, fmt.Errorf("VPC %s not found", id)
	}
	return r.describe(ctx, out.Vpcs[0])
}

func (r *VPCResolver) describe(ctx context.Context, vpc ec2types.Vpc) (network.Handle, error) {
	handle := network.Handle{
		ID:       aws.ToString(vpc.VpcId),
		Name:     tagValue(vpc.Tags, "Name"),
		CIDR:     aws.ToString(vpc.CidrBlock),
		Provider: ProviderName,
		Default:  aws.ToBool(vpc.IsDefault),
	}

	paginator := ec2.NewDescribeSubnetsPaginator(r.api, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{{Name: aws.String("vpc-id"), Values: []string{handle.ID}}},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return network.Handle{}, fmt.Errorf("failed to describe subnets of %s: %w", handle.ID, err)
		}
		for _, s := range page.Subnets {
			handle.Subnets = append(handle.Subnets, network.Subnet{
				ID:     aws.ToString(s.SubnetId),
				CIDR:   aws.ToString(s.CidrBlock),
				Zone:   aws.ToString(s.AvailabilityZone),
				Public: aws.ToBool(s.MapPublicIpOnLaunch),
			})
		}
	}
	sort.Slice(handle.Subnets, func(i, j int) bool {
		a, b := handle.Subnets[i], handle.Subnets[j]
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		return a.Public && !b.Public
	})
	return handle, nil
}

func tagValue(tags []ec2types.Tag, key string) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}

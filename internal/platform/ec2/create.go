package ec2

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/async"
	"github.com/imamik/blueprints/internal/util/labels"
	"github.com/imamik/blueprints/internal/util/naming"
	"github.com/imamik/blueprints/internal/util/netutil"
)

const anyIPv4 = "0.0.0.0/0"

// Create implements network.Resolver by building the standard topology.
func (r *VPCResolver) Create(ctx context.Context, name string) (network.Handle, error) {
	logger := log.FromContext(ctx).WithValues("vpc", name)

	zones, err := r.availabilityZones(ctx)
	if err != nil {
		return network.Handle{}, err
	}
	cidrs, err := netutil.SplitCIDR(r.cidr, 2*len(zones))
	if err != nil {
		return network.Handle{}, fmt.Errorf("failed to plan subnets: %w", err)
	}

	vpcOut, err := r.api.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(r.cidr),
		TagSpecifications: r.tagSpec(ec2types.ResourceTypeVpc, name),
	})
	if err != nil {
		return network.Handle{}, fmt.Errorf("failed to create VPC: %w", err)
	}
	vpcID := aws.ToString(vpcOut.Vpc.VpcId)
	logger.Info("VPC created", "id", vpcID, "zones", zones)

	for _, attr := range []*ec2.ModifyVpcAttributeInput{
		{VpcId: aws.String(vpcID), EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)}},
		{VpcId: aws.String(vpcID), EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)}},
	} {
		if _, err := r.api.ModifyVpcAttribute(ctx, attr); err != nil {
			return network.Handle{}, fmt.Errorf("failed to enable DNS on VPC %s: %w", vpcID, err)
		}
	}

	igwOut, err := r.api.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: r.tagSpec(ec2types.ResourceTypeInternetGateway, naming.InternetGateway(name)),
	})
	if err != nil {
		return network.Handle{}, fmt.Errorf("failed to create internet gateway: %w", err)
	}
	igwID := aws.ToString(igwOut.InternetGateway.InternetGatewayId)
	if _, err := r.api.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: aws.String(igwID),
		VpcId:             aws.String(vpcID),
	}); err != nil {
		return network.Handle{}, fmt.Errorf("failed to attach internet gateway: %w", err)
	}

	publicRT, err := r.routeTable(ctx, vpcID, name+"-public", &ec2.CreateRouteInput{GatewayId: aws.String(igwID)})
	if err != nil {
		return network.Handle{}, err
	}

	var mu sync.Mutex
	var subnets []network.Subnet
	tasks := make([]async.Task, len(zones))
	for i, zone := range zones {
		tasks[i] = async.Task{
			Name: zone,
			Func: func(ctx context.Context) error {
				created, err := r.createZone(ctx, name, vpcID, zone, cidrs[2*i], cidrs[2*i+1], publicRT)
				mu.Lock()
				subnets = append(subnets, created...)
				mu.Unlock()
				return err
			},
		}
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return network.Handle{}, fmt.Errorf("failed to build subnets of VPC %s: %w", vpcID, err)
	}

	sort.Slice(subnets, func(i, j int) bool {
		if subnets[i].Zone != subnets[j].Zone {
			return subnets[i].Zone < subnets[j].Zone
		}
		return subnets[i].Public && !subnets[j].Public
	})
	logger.Info("VPC ready", "id", vpcID, "subnets", len(subnets))

	return network.Handle{
		ID:       vpcID,
		Name:     name,
		CIDR:     r.cidr,
		Provider: ProviderName,
		Subnets:  subnets,
	}, nil
}

// createZone builds the public subnet, NAT gateway and private subnet of
// one availability zone. Subnets created before a failure are returned.
func (r *VPCResolver) createZone(ctx context.Context, name, vpcID, zone, publicCIDR, privateCIDR, publicRT string) ([]network.Subnet, error) {
	public, err := r.subnet(ctx, vpcID, zone, publicCIDR, naming.Subnet(name, "public", zone), true)
	if err != nil {
		return nil, err
	}
	created := []network.Subnet{public}
	if err := r.associate(ctx, publicRT, public.ID); err != nil {
		return created, err
	}

	natID, err := r.natGateway(ctx, naming.NATGateway(name, zone), public.ID)
	if err != nil {
		return created, err
	}

	private, err := r.subnet(ctx, vpcID, zone, privateCIDR, naming.Subnet(name, "private", zone), false)
	if err != nil {
		return created, err
	}
	created = append(created, private)

	privateRT, err := r.routeTable(ctx, vpcID, name+"-private-"+zone, &ec2.CreateRouteInput{NatGatewayId: aws.String(natID)})
	if err != nil {
		return created, err
	}
	return created, r.associate(ctx, privateRT, private.ID)
}

func (r *VPCResolver) subnet(ctx context.Context, vpcID, zone, cidr, name string, public bool) (network.Subnet, error) {
	out, err := r.api.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		AvailabilityZone:  aws.String(zone),
		CidrBlock:         aws.String(cidr),
		TagSpecifications: r.tagSpec(ec2types.ResourceTypeSubnet, name),
	})
	if err != nil {
		return network.Subnet{}, fmt.Errorf("failed to create subnet %s: %w", name, err)
	}
	id := aws.ToString(out.Subnet.SubnetId)

	if public {
		if _, err := r.api.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            aws.String(id),
			MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: aws.Bool(true)},
		}); err != nil {
			return network.Subnet{}, fmt.Errorf("failed to enable public IPs on subnet %s: %w", name, err)
		}
	}
	return network.Subnet{ID: id, CIDR: cidr, Zone: zone, Public: public}, nil
}

func (r *VPCResolver) natGateway(ctx context.Context, name, subnetID string) (string, error) {
	eip, err := r.api.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain:            ec2types.DomainTypeVpc,
		TagSpecifications: r.tagSpec(ec2types.ResourceTypeElasticIp, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to allocate elastic IP for %s: %w", name, err)
	}

	out, err := r.api.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
		SubnetId:          aws.String(subnetID),
		AllocationId:      eip.AllocationId,
		TagSpecifications: r.tagSpec(ec2types.ResourceTypeNatgateway, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create NAT gateway %s: %w", name, err)
	}
	natID := aws.ToString(out.NatGateway.NatGatewayId)

	waiter := ec2.NewNatGatewayAvailableWaiter(r.api, func(o *ec2.NatGatewayAvailableWaiterOptions) {
		o.MinDelay = r.natMinWait
	})
	if err := waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{NatGatewayIds: []string{natID}}, r.natTimeout); err != nil {
		return "", fmt.Errorf("NAT gateway %s did not become available: %w", name, err)
	}
	return natID, nil
}

// routeTable creates a route table whose default route is described by
// route. Only the route target fields of route are used.
func (r *VPCResolver) routeTable(ctx context.Context, vpcID, name string, route *ec2.CreateRouteInput) (string, error) {
	out, err := r.api.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId:             aws.String(vpcID),
		TagSpecifications: r.tagSpec(ec2types.ResourceTypeRouteTable, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create route table %s: %w", name, err)
	}
	rtID := aws.ToString(out.RouteTable.RouteTableId)

	route.RouteTableId = aws.String(rtID)
	route.DestinationCidrBlock = aws.String(anyIPv4)
	if _, err := r.api.CreateRoute(ctx, route); err != nil {
		return "", fmt.Errorf("failed to create default route in %s: %w", name, err)
	}
	return rtID, nil
}

func (r *VPCResolver) associate(ctx context.Context, routeTableID, subnetID string) error {
	if _, err := r.api.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
		RouteTableId: aws.String(routeTableID),
		SubnetId:     aws.String(subnetID),
	}); err != nil {
		return fmt.Errorf("failed to associate route table %s with subnet %s: %w", routeTableID, subnetID, err)
	}
	return nil
}

func (r *VPCResolver) availabilityZones(ctx context.Context) ([]string, error) {
	out, err := r.api.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
			{Name: aws.String("zone-type"), Values: []string{"availability-zone"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe availability zones: %w", err)
	}

	var zones []string
	for _, az := range out.AvailabilityZones {
		zones = append(zones, aws.ToString(az.ZoneName))
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no availability zones available")
	}
	sort.Strings(zones)
	if len(zones) > r.maxAZs {
		zones = zones[:r.maxAZs]
	}
	return zones, nil
}

func (r *VPCResolver) tagSpec(resource ec2types.ResourceType, name string) []ec2types.TagSpecification {
	tags := []ec2types.Tag{
		{Key: aws.String("Name"), Value: aws.String(name)},
		{Key: aws.String(labels.KeyManagedBy), Value: aws.String(labels.ManagedByBlueprints)},
	}
	keys := make([]string, 0, len(r.tags))
	for k := range r.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tags = append(tags, ec2types.Tag{Key: aws.String(k), Value: aws.String(r.tags[k])})
	}
	return []ec2types.TagSpecification{{ResourceType: resource, Tags: tags}}
}

package naming

import "fmt"

// Network returns the name of a network created for a blueprint.
func Network(blueprintID string) string {
	return fmt.Sprintf("%s-vpc", blueprintID)
}

// Subnet returns the name of a subnet in the given availability zone.
func Subnet(blueprintID, tier, zone string) string {
	return fmt.Sprintf("%s-%s-%s", blueprintID, tier, zone)
}

// NATGateway returns the name of the NAT gateway in the given availability zone.
func NATGateway(blueprintID, zone string) string {
	return fmt.Sprintf("%s-nat-%s", blueprintID, zone)
}

// InternetGateway returns the name of a blueprint's internet gateway.
func InternetGateway(blueprintID string) string {
	return fmt.Sprintf("%s-igw", blueprintID)
}

// TeamRoleBinding returns the name of the namespaced binding granting an
// application team edit access.
func TeamRoleBinding(team string) string {
	return fmt.Sprintf("team-%s-edit", team)
}

// TeamAdminBinding returns the name of a platform team's cluster-wide binding.
func TeamAdminBinding(team string) string {
	return fmt.Sprintf("team-%s-admin", team)
}

// TeamQuota returns the name of a team's resource quota.
func TeamQuota(team string) string {
	return fmt.Sprintf("team-%s-quota", team)
}

// DefaultDenyPolicy is the name of the default-deny network policy.
func DefaultDenyPolicy() string {
	return "default-deny"
}

// FieldManager returns the server-side apply field manager for an add-on.
func FieldManager(addOnID string) string {
	return fmt.Sprintf("blueprints-%s", addOnID)
}

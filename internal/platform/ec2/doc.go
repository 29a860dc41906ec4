// Package ec2 resolves blueprint networks to AWS VPCs.
//
// [VPCResolver] looks up the account's default VPC or a VPC by ID, and
// creates the standard topology when neither is requested: one public and
// one private subnet per availability zone, an internet gateway for the
// public subnets and a NAT gateway per zone for the private ones.
package ec2

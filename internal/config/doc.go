// Package config defines the blueprint file format.
//
// A blueprint file is YAML describing one deployment: the cluster to
// attach to, how its network is found or created, the add-ons to install
// and the teams to onboard. [LoadFile] parses a file, applies defaults and
// validates it. Relative paths inside the file are resolved against the
// file's directory.
//
// Operational timeouts are not part of the file; [LoadTimeouts] reads them
// from BLUEPRINTS_* environment variables.
package config

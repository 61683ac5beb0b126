// Package seed loads conference definitions written in YAML.
//
// A definition names the owning admin, the conference and its surveys with
// their questions. Loading the same file twice updates the conference in
// place instead of creating a second one. Use WithDryRun(true) to validate a definition
// against the database without applying it:
//
//	result, err := seed.NewLoader(db).
//	    WithDryRun(true).
//	    LoadFile(ctx, "gophercon.yml")
package seed

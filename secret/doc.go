// Package secret resolves secret references in environment values.
//
// A value of the form secretref:<provider>:<ref> is replaced by what the
// named provider returns for ref. Two providers are built in:
//   - file: reads the file at ref, e.g. secretref:file:/run/secrets/db_password
//   - env:  reads another variable, e.g. secretref:env:VAULT_DB_PASSWORD
//
// Values without the prefix pass through untouched.
package secret

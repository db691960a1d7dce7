// Sanitycheck validates a paper-export record against when/then
// consistency rules and prints the violations it finds.
//
// Usage:
//
//	# Validate a record with the default rules file (sanity_checks.json)
//	sanitycheck paper.json
//
//	# Validate with an explicit rules file
//	sanitycheck paper.json config/sanity_checks.json
//
//	# Machine-readable report
//	sanitycheck paper.json --format json
//
//	# Re-validate whenever the record or the rules change
//	sanitycheck watch paper.json
//
//	# Serve validation over HTTP
//	sanitycheck serve --settings sanitycheck.yaml
//
//	# Inspect stored reports
//	sanitycheck history list --limit 20
//
// Exit status is 0 when there are no violations, 1 when violations were
// found and 2 for usage errors or an unreadable record.
package main

func main() {
	Execute()
}

// Command agencysite runs the agency website backend: the public content
// API, the admin API and the database maintenance commands.
package main

import "agencysite/cmd/agencysite/commands"

func main() {
	commands.Execute()
}

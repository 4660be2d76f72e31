package main

import "gitlab.com/dirk.krummacker/contact-directory/internal/cli"

// Usage examples on the command line:
// > DBDRIVER=file DBFILE=db.json contacts seed --count 150
// > PORT=4000 DBDRIVER=file DBFILE=db.json GIN_LOGGING=off contacts serve
// > API_URL=http://localhost:4000 contacts browse
func main() {
	cli.Execute()
}

package cli

import (
	"encoding/json"
	"fmt"
)

// printJSON marshals v with 2-space indentation and prints it to stdout.
// Marshal errors are impossible for the plain map/struct values the
// commands pass in, so they are ignored.
func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

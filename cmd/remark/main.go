// remark attaches Word comments to every occurrence of flagged terms in
// .docx documents, without changing their text or formatting.
package main

import (
	"os"

	"github.com/corey/remark/cmd/remark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

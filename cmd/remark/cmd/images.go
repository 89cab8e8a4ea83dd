package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images <in.docx> [dir]",
	Short: "List embedded pictures, or extract them into dir",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runImages,
}

func runImages(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 2 {
		written, err := a.ExtractImages(args[0], args[1])
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}

	images, err := a.Images(args[0])
	if err != nil {
		return err
	}
	if len(images) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no images")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatImages(images, useColor()))
	return nil
}

// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command rpminfo inspects RPM package files. It is a thin consumer of the
// rpmpack library, not part of the library itself.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpmforge/rpmpack"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rpminfo",
		Short:         "Inspects RPM package files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newInfoCmd(), newListCmd(), newChangelogCmd(), newExtractCmd())
	return cmd
}

func openPackage(path string) (*rpmpack.Package, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	pkg, err := rpmpack.ReadPackage(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return pkg, f.Close, nil
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <rpm>",
		Short: "Print basic information about a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, closeFn, err := openPackage(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			h := pkg.Header()
			fmt.Printf("Name: %s\n", pkg.Lead().Name)
			fmt.Printf("Version: %s\n", h.VersionString())
			fmt.Printf("Release: %s\n", h.ReleaseString())
			fmt.Printf("Arch: %s\n", h.ArchName())
			fmt.Printf("License: %s\n", h.LicenseName())
			if vendor, ok := h.VendorName(); ok {
				fmt.Printf("Vendor: %s\n", vendor)
			}
			fmt.Printf("Summary: %s\n", h.SummaryText())
			if t, ok := h.BuildTime(); ok {
				fmt.Printf("Build time: %s\n", t)
			}
			fmt.Printf("Payload: %s (level %s)\n", h.PayloadCompressor(), mustLevel(h))
			return nil
		},
	}
}

func mustLevel(h *rpmpack.HeaderView) string {
	level, err := h.PayloadCompressionLevel()
	if err != nil {
		return "?"
	}
	return fmt.Sprint(level)
}

func newListCmd() *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "list <rpm>",
		Short: "List the files a package installs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, closeFn, err := openPackage(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			if validate {
				if err := pkg.Validate(); err != nil {
					return err
				}
			}
			files, err := pkg.Header().Files()
			if err != nil {
				return err
			}
			for _, fi := range files {
				fmt.Printf("%10d %s\n", fi.Size, fi.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "validate package integrity before listing")
	return cmd
}

func newChangelogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changelog <rpm>",
		Short: "Print a package's changelog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, closeFn, err := openPackage(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			for _, entry := range pkg.Header().Changelog() {
				fmt.Printf("* %s %s\n%s\n\n", entry.Time.Format("Mon Jan 02 2006"), entry.Name, entry.Text)
			}
			return nil
		},
	}
}

func newExtractCmd() *cobra.Command {
	var destDir string
	cmd := &cobra.Command{
		Use:   "extract <rpm>",
		Short: "Extract a package's file payloads to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, closeFn, err := openPackage(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			if err := os.MkdirAll(destDir, 0o755); err != nil {
				return err
			}
			ar, err := pkg.ReadArchive()
			if err != nil {
				return err
			}
			for {
				hdr, err := ar.Next()
				if err != nil {
					break
				}
				target := destDir + "/" + hdr.Name
				if err := os.MkdirAll(parentDir(target), 0o755); err != nil {
					return err
				}
				out, err := os.Create(target)
				if err != nil {
					return err
				}
				if _, err := io.CopyN(out, ar, hdr.Size); err != nil {
					out.Close()
					return err
				}
				if err := out.Close(); err != nil {
					return err
				}
				fmt.Println(target)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&destDir, "directory", "d", ".", "directory to extract into")
	return cmd
}

func parentDir(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return p[:i]
		}
	}
	return "."
}

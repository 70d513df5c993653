// This file is part of opal, a compiler for a small imperative language.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mckerracher/opal"
	"github.com/mckerracher/opal/report"
)

func reportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "report <file.opl>...",
		Short: "Compile files and write an HTML diagnostic report for each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := report.NewCollector()
			for _, path := range args {
				if err := reportOne(collector, path); err != nil {
					log.Warn().Err(err).Str("file", path).Msg("compile failed; report will show the error")
				}
			}
			for _, r := range collector.Reports() {
				base := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
				outPath := filepath.Join(outDir, base+".report.html")
				out, err := os.Create(outPath)
				if err != nil {
					return errors.Wrapf(err, "creating %s", outPath)
				}
				err = r.Render(out)
				closeErr := out.Close()
				if err != nil {
					return errors.Wrapf(err, "rendering %s", outPath)
				}
				if closeErr != nil {
					return errors.Wrapf(closeErr, "closing %s", outPath)
				}
				log.Info().Str("report", outPath).Msg("wrote report")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write reports into")
	return cmd
}

func reportOne(collector *report.Collector, path string) error {
	f, err := os.Open(path)
	if err != nil {
		collector.Fail(path, err)
		return err
	}
	defer f.Close()

	_, err = opal.Compile(path, f, collector)
	if err != nil {
		collector.Fail(path, err)
		return err
	}
	return nil
}

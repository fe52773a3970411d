package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"curse-update-proxy/logger"
	"curse-update-proxy/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// jarCmd represents the jar command
var jarCmd = &cobra.Command{
	Use:   "jar [path...]",
	Short: "Shows the versions the proxy would read from local jars",
	Long: `Reads mod versions out of local jar files, both from the file name
and from the jar metadata (mcmod.info, META-INF/mods.toml, META-INF/MANIFEST.MF).
Directories are scanned recursively.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		logger.InitLogger("warn")
		jars, err := scanJars(args)
		if err != nil {
			logger.Log.Fatalw("Failed to scan jars", zap.Error(err))
		}
		for _, j := range jars {
			fmt.Println(j)
		}
	},
}

func init() {
	rootCmd.AddCommand(jarCmd)
}

type jarVersion struct {
	Path         string
	FromFilename string
	FromArchive  string
	Err          error
}

func (j jarVersion) String() string {
	orNone := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}
	if j.Err != nil {
		return fmt.Sprintf("%s\tfilename=%s\terror=%v", j.Path, orNone(j.FromFilename), j.Err)
	}
	return fmt.Sprintf("%s\tfilename=%s\tarchive=%s", j.Path, orNone(j.FromFilename), orNone(j.FromArchive))
}

// scanJars inspects every .jar under paths.
func scanJars(paths []string) ([]jarVersion, error) {
	var out []jarVersion
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "versions" && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.ToLower(filepath.Ext(path)) != ".jar" {
				return nil
			}
			out = append(out, inspectJar(path))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
	}
	return out, nil
}

func inspectJar(path string) jarVersion {
	j := jarVersion{Path: path}
	j.FromFilename, _ = version.FromFilename(filepath.Base(path))

	data, err := os.ReadFile(path)
	if err != nil {
		j.Err = err
		return j
	}
	j.FromArchive, _, j.Err = version.InspectArchive(data)
	return j
}

package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"curse-update-proxy/curseforge"
	"curse-update-proxy/promos"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Colorize applies the given 0xRRGGBB color to the text using lipgloss.
func Colorize(text string, color int) string {
	hexColor := fmt.Sprintf("#%06x", color)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
	return style.Render(text)
}

// ReleaseTypeColor is green for releases, yellow for betas and red for alphas.
func ReleaseTypeColor(rt curseforge.ReleaseType) int {
	switch rt {
	case curseforge.Release:
		return 0x2ecc71
	case curseforge.Beta:
		return 0xf1c40f
	case curseforge.Alpha:
		return 0xe74c3c
	default:
		return 0x808080
	}
}

// RenderResult draws the promotions of a mod as a table, newest game version first.
func RenderResult(modID int, res *promos.Result) string {
	gameVersions := make([]string, 0, len(res.Latest))
	for gv := range res.Latest {
		gameVersions = append(gameVersions, gv)
	}
	sort.Slice(gameVersions, func(i, j int) bool {
		return compareGameVersions(gameVersions[i], gameVersions[j]) > 0
	})

	rows := make([][]string, 0, len(gameVersions))
	for _, gv := range gameVersions {
		rows = append(rows, []string{gv, selectionCell(res.Latest[gv]), selectionCell(res.Recommended[gv])})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Game version", "Latest", "Recommended").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Mod %d", modID)))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(res.Homepage))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("No promotable files."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}

func selectionCell(s *promos.Selection) string {
	if s == nil {
		return ""
	}
	v := s.Version
	if !s.Resolved {
		v = "?"
	}
	return fmt.Sprintf("%s %s", v, Colorize(fmt.Sprintf("(%s #%d)", s.ReleaseType, s.FileID), ReleaseTypeColor(s.ReleaseType)))
}

// compareGameVersions compares dotted numeric versions ("1.16.5" > "1.16").
func compareGameVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var x, y int
		if i < len(as) {
			x, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			y, _ = strconv.Atoi(bs[i])
		}
		if x != y {
			if x > y {
				return 1
			}
			return -1
		}
	}
	return strings.Compare(a, b)
}

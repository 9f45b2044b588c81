package core

import (
	"strings"

	"github.com/fatih/color"
)

var (
	promptUserColor = color.New(color.FgGreen, color.Bold)
	promptDirColor  = color.New(color.FgBlue, color.Bold)
)

// expandPrompt fills in the prompt escapes: \u user, \h short host name,
// \w working directory with the home directory shown as ~ and \$ which is
// '#' for root and '$' otherwise.
func expandPrompt(template, user, host, wd, home string, colored bool) string {
	if home != "" && (wd == home || strings.HasPrefix(wd, strings.TrimSuffix(home, "/")+"/")) {
		wd = "~" + strings.TrimPrefix(wd, home)
	}

	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}

	sign := "$"
	if user == "root" {
		sign = "#"
	}

	if colored {
		promptUserColor.EnableColor()
		promptDirColor.EnableColor()
		user = promptUserColor.Sprint(user)
		host = promptUserColor.Sprint(host)
		wd = promptDirColor.Sprint(wd)
	}

	return strings.NewReplacer(
		`\u`, user,
		`\h`, host,
		`\w`, wd,
		`\$`, sign,
	).Replace(template)
}

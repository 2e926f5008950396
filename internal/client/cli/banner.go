package cli

import "github.com/common-nighthawk/go-figure"

func banner() string {
	return figure.NewFigure("Policy Insight", "", true).String() +
		"\nType 'help' for commands."
}

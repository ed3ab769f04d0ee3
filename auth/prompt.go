package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CodeProvider presents the consent URL to the user and returns the authorisation
// code they obtained from it.
type CodeProvider interface {
	Code(ctx context.Context, url string) (string, error)
}

type CodeProviderFunc func(ctx context.Context, url string) (string, error)

func (f CodeProviderFunc) Code(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Terminal prompts on Out and reads a single line from In.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t Terminal) Code(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(t.Out, "Authorize this app by visiting this url: %v\n", url)
	fmt.Fprintf(t.Out, "Enter the code from that page here: ")

	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	code := strings.TrimSpace(line)
	if code == "" {
		return "", fmt.Errorf("no authorisation code entered")
	}

	return code, nil
}

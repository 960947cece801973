package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var chcpOutput = regexp.MustCompile(`^.*\s([0-9]*)\s*$`)

func codepageEncoding(codepage int) (encoding.Encoding, bool) {
	switch codepage {
	case 932:
		return japanese.ShiftJIS, true
	case 20932:
		return japanese.EUCJP, true
	case 50220, 50221, 50222:
		return japanese.ISO2022JP, true
	case 949:
		return korean.EUCKR, true
	case 54936:
		return simplifiedchinese.GB18030, true
	case 936:
		return simplifiedchinese.GBK, true
	case 52936:
		return simplifiedchinese.HZGB2312, true
	case 950:
		return traditionalchinese.Big5, true
	case 65001:
		return unicode.UTF8, true
	}
	return nil, false
}

// parseCodepage reads the number printed by chcp, e.g. "Active code page: 932".
func parseCodepage(r io.Reader) int {
	codepage := -1
	s := bufio.NewScanner(r)
	for s.Scan() {
		m := chcpOutput.FindStringSubmatch(s.Text())
		if len(m) < 2 {
			continue
		}
		if i, err := strconv.Atoi(m[1]); err == nil {
			codepage = i
		}
	}
	return codepage
}

func detectEncoding() (encoding.Encoding, error) {
	if runtime.GOOS != "windows" {
		return unicode.UTF8, nil
	}
	out, err := exec.Command("chcp").Output()
	if err != nil {
		return nil, err
	}
	codepage := parseCodepage(bytes.NewReader(out))
	if enc, ok := codepageEncoding(codepage); ok {
		return enc, nil
	}
	return nil, fmt.Errorf("cannot detect encoding of code page %d", codepage)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// newConsoleWriter encodes symbol names for the console's code page.
// Close flushes it.
func newConsoleWriter(w io.Writer) io.WriteCloser {
	enc, err := detectEncoding()
	if err != nil || enc == unicode.UTF8 {
		return nopCloser{w}
	}
	return transform.NewWriter(w, enc.NewEncoder())
}

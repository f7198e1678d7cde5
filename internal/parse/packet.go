package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/freeciv21/packetgen/internal/ast"
)

var (
	headerRe = regexp.MustCompile(`^\s*(\S+)\s*=\s*(\d+)\s*;\s*(.*?)\s*$`)
	cancelRe = regexp.MustCompile(`^cancel\((.*)\)$`)
)

// parsePacket parses one packet block: a header line followed by
// zero or more field lines (the terminating "end" line has already
// been stripped by the caller).
func parsePacket(lines []string, aliases map[string]string) (*ast.Packet, error) {
	if len(lines) == 0 {
		return nil, errors.New("empty packet block")
	}
	m := headerRe.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, errors.Errorf("packet header %q: expected `TAG = NUMBER; flags`", lines[0])
	}
	tagName := m[1]
	tagNumber, err := strconv.Atoi(m[2])
	if err != nil || tagNumber < 0 || tagNumber > 65535 {
		return nil, errors.Errorf("packet %s: tag number %q out of range [0, 65535]", tagName, m[2])
	}

	dirs, info, flags, cancel, err := parsePacketHeaderFlags(tagName, m[3])
	if err != nil {
		return nil, err
	}

	var fields []ast.Field
	for _, line := range lines[1:] {
		fs, err := parseFields(line, aliases)
		if err != nil {
			return nil, errors.Wrapf(err, "packet %s", tagName)
		}
		fields = append(fields, fs...)
	}

	return ast.NewPacket(tagName, uint16(tagNumber), dirs, info, flags, cancel, fields)
}

func parsePacketHeaderFlags(tagName, token string) (ast.Direction, ast.InfoMode, ast.Flags, []string, error) {
	var dirs ast.Direction
	var info ast.InfoMode
	var flags ast.Flags
	var cancel []string

	for _, raw := range strings.Split(token, ",") {
		flag := strings.TrimSpace(raw)
		if flag == "" {
			continue
		}
		switch {
		case flag == "sc":
			dirs |= ast.ServerToClient
		case flag == "cs":
			dirs |= ast.ClientToServer
		case flag == "is-info":
			info = ast.Info
		case flag == "is-game-info":
			info = ast.GameInfo
		case flag == "pre-send":
			flags.PreSend = true
		case flag == "post-recv":
			flags.PostRecv = true
		case flag == "post-send":
			flags.PostSend = true
		case flag == "no-delta":
			flags.NoDelta = true
		case flag == "no-packet":
			flags.NoPacket = true
		case flag == "handle-via-packet":
			flags.HandleViaPacket = true
		case flag == "handle-per-conn":
			flags.HandlePerConn = true
		case flag == "no-handle":
			flags.NoHandle = true
		case flag == "dsend":
			flags.DirectSend = true
		case flag == "lsend":
			flags.ListSend = true
		case flag == "force":
			flags.ForceSend = true
		case cancelRe.MatchString(flag):
			cancel = append(cancel, cancelRe.FindStringSubmatch(flag)[1])
		default:
			return 0, 0, ast.Flags{}, nil, errors.Errorf("packet %s: unknown flag %q", tagName, flag)
		}
	}
	return dirs, info, flags, cancel, nil
}

package modload

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// PackageID identifies the binary built from an instance: a SHA-256 over
// the reference, the settings the recipe declares, the final options and
// the resolved runtime dependencies. Test and tool dependencies do not take
// part in it.
func PackageID(inst *Instance, g *Graph) string {
	h := sha256.New()
	io.WriteString(h, "[ref]\n"+inst.Ref.String()+"\n")
	io.WriteString(h, "[settings]\n"+inst.Settings.String()+"\n")
	io.WriteString(h, "[options]\n"+inst.Options.String()+"\n")
	io.WriteString(h, "[requires]\n")
	if g != nil {
		for _, ref := range g.RuntimeRefs() {
			io.WriteString(h, ref+"\n")
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:40]
}

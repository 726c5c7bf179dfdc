package receipt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/gopos/config"
	"github.com/talkincode/gopos/internal/domain"
	"github.com/talkincode/gopos/pkg/common"
	"go.uber.org/zap"
)

const (
	receiptWidth = 48
	// item names are cut to a fixed display width, as on the printed slip
	nameWidth = 25
)

// Renderer produces the printable cash receipt and delivers it to the
// operator: a text file under {workdir}/receipts plus an optional email
// copy. The engine invokes Deliver exactly once per successful finalize.
type Renderer struct {
	store   config.StoreConfig
	workdir string
	mailer  *Mailer

	mu   sync.Mutex
	last []byte
}

func NewRenderer(cfg *config.AppConfig, mailer *Mailer) *Renderer {
	return &Renderer{store: cfg.Store, workdir: cfg.System.Workdir, mailer: mailer}
}

// Deliver implements pos.ReceiptSink.
func (r *Renderer) Deliver(items []domain.SaleItem, total decimal.Decimal) {
	number := common.UUIDint64()
	doc := r.Render(number, time.Now(), items, total)

	r.mu.Lock()
	r.last = doc
	r.mu.Unlock()

	path := filepath.Join(r.workdir, "receipts", fmt.Sprintf("ticket_%d.txt", number))
	if err := os.WriteFile(path, doc, 0644); err != nil {
		zap.L().Warn("receipt: write failed", zap.String("path", path), zap.Error(err))
	} else {
		zap.L().Info("receipt: written", zap.String("path", path), zap.Int64("number", number))
	}

	if r.mailer != nil {
		go func() {
			defer func() {
				if p := recover(); p != nil {
					zap.S().Error("receipt: mail panic: ", p)
				}
			}()
			subject := fmt.Sprintf("%s - ticket %d", r.store.Name, number)
			if err := r.mailer.Send(subject, string(doc)); err != nil {
				zap.L().Warn("receipt: mail failed", zap.Error(err))
			}
		}()
	}
}

// Last returns the most recently rendered receipt, nil if none yet.
func (r *Renderer) Last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	out := make([]byte, len(r.last))
	copy(out, r.last)
	return out
}

// Render lays out the receipt document: centered store header, date and
// time lines, ticket number, itemized rows with the name truncated to
// the display width, a total line and the footer greeting. Money is
// printed without decimals, the way the original slip shows it.
func (r *Renderer) Render(number int64, ts time.Time, items []domain.SaleItem, total decimal.Decimal) []byte {
	var b bytes.Buffer

	writeCentered(&b, r.store.Name)
	writeCentered(&b, r.store.Subtitle)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Fecha: %s\n", ts.Format("02/01/2006"))
	fmt.Fprintf(&b, "Hora: %s\n", ts.Format("15:04:05"))
	fmt.Fprintf(&b, "Ticket #%d\n", number)
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-25s %5s %8s %9s\n", "PRODUCTO", "CANT", "PRECIO", "SUBTOTAL")
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%-25s %5d %8s %9s\n",
			truncateName(it.ProductName),
			it.Quantity,
			"$"+it.UnitPrice.StringFixed(0),
			"$"+it.Subtotal.StringFixed(0))
	}
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	fmt.Fprintf(&b, "TOTAL: $%s\n", total.StringFixed(0))
	b.WriteString("\n")

	writeCentered(&b, r.store.Footer)
	writeCentered(&b, r.store.Footer2)
	return b.Bytes()
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= nameWidth {
		return name
	}
	return string(runes[:nameWidth])
}

func writeCentered(b *bytes.Buffer, line string) {
	if line == "" {
		return
	}
	pad := (receiptWidth - len([]rune(line))) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + line + "\n")
}

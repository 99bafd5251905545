package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/krobus00/dashboard-service/internal/entity"
	"github.com/spf13/cobra"
)

func ListWidgets(cmd *cobra.Command, args []string) {
	printWidgetOrder(os.Stdout, newOrderStore().Load())
}

func MoveWidget(cmd *cobra.Command, args []string) {
	orderStore := newOrderStore()
	current := orderStore.Load()

	next := orderStore.Reorder(current, args[0], args[1])
	if sameOrder(current, next) {
		_, _ = fmt.Fprintf(os.Stdout, "order unchanged: %s onto %s is not a valid move\n", args[0], args[1])
	}

	printWidgetOrder(os.Stdout, next)
}

func ResetWidgets(cmd *cobra.Command, args []string) {
	printWidgetOrder(os.Stdout, newOrderStore().Reset())
}

func printWidgetOrder(out io.Writer, widgets []entity.Widget) {
	for i, w := range widgets {
		label := string(w.Type)
		if w.SymbolRef != nil {
			label = fmt.Sprintf("%s %s", w.Type, w.SymbolRef.Key)
		}
		_, _ = fmt.Fprintf(out, "%d. %-10s %s\n", i+1, w.ID, label)
	}
}

func sameOrder(a, b []entity.Widget) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}

	return true
}

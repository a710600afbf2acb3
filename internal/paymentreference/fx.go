package paymentreference

import (
	"github.com/smallbiznis/withholding/internal/paymentreference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentreference",
	fx.Provide(service.NewManager),
)

// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package node

import (
	"code.bizonmatrix.io/bizon/core/events"
	"code.bizonmatrix.io/bizon/logging"

	"go.uber.org/zap"
)

// auditor writes every event to the log.
type auditor struct {
	log *logging.Logger
}

func newAuditor(log *logging.Logger) *auditor {
	return &auditor{log: log.Named("audit")}
}

func (a *auditor) Push(evts ...events.Event) {
	for _, e := range evts {
		fields := []zap.Field{
			logging.String("type", e.Type().String()),
			logging.String("trace-id", e.TraceID()),
		}
		switch et := e.(type) {
		case *events.ParticipantEntered:
			fields = append(fields,
				logging.Account(et.Account.String()),
				logging.PublicID(et.PublicID.String()),
				logging.Bool("first-entry", et.FirstEntry))
		case *events.MatrixCompleted:
			fields = append(fields,
				logging.Account(et.Owner.String()),
				logging.Uint8("level", et.Level),
				logging.Uint32("cycles", et.Cycles))
		case *events.BalanceClaimed:
			fields = append(fields,
				logging.Account(et.Account.String()),
				logging.BigUint("amount", et.Amount))
		case *events.OwnerDisabled:
			fields = append(fields, logging.Account(et.PreviousOwner.String()))
		}
		a.log.Info("event", fields...)
	}
}

func (a *auditor) Types() []events.Type {
	return []events.Type{events.All}
}

// Copyright (c) 2025 The Inference Staking developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id BLOB(16) NOT NULL UNIQUE,
	type TEXT NOT NULL,
	pool BLOB(32) NOT NULL,
	subject BLOB(32) NOT NULL,
	epoch INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	data BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS event_pool ON event(pool, seq);
CREATE INDEX IF NOT EXISTS event_subject ON event(subject, seq);
CREATE INDEX IF NOT EXISTS event_type ON event(type, seq);
CREATE INDEX IF NOT EXISTS event_epoch ON event(epoch);
`

const eventColumns = "seq, id, type, pool, subject, epoch, timestamp, data"

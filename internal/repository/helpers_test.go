// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package repository

import "time"

var fixedTime = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

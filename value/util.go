// This file is part of notecore - https://github.com/notecore/engine
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package value

import (
	"math"
	"strconv"
)

func powMath(base, exp float64) float64 { return math.Pow(base, exp) }

func itoa(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

func trimFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

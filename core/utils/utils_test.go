// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package utils

import "fmt"

func Example_clamp() {
	fmt.Println(Clamp(5, 0, 9))
	fmt.Println(Clamp(-1, 0, 9))
	fmt.Println(Clamp(10, 0, 9))
	fmt.Println(Clamp(1.5, 0.0, 1.0))

	// Output:
	// 5
	// 0
	// 9
	// 1
}

func Example_oddUp() {
	fmt.Println(OddUp(4))
	fmt.Println(OddUp(5))
	fmt.Println(OddUp(6))

	// Output:
	// 5
	// 5
	// 7
}

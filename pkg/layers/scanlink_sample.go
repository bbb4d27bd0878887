/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package layers

/*
Annotated data frame captured from a PA64 probe (scan 0x2a, angle 1, step 2,
channel 7, one sample group):

0000   1d fc cf 1a 10 2a 00 00 10 00 00 00 01 02 07 0a
0010   01 04 10 40 00 01 04 10 40 00 00 00 68 87 b0 cf

========
preamble [0:4] (little-endian 0x1ACFFC1D)
1d fc cf 1a
type | scanId [4:8] (type 0x10 = Data, scanId 0x00002a)
10 2a 00 00
payloadSize [8:12] = 16
10 00 00 00
====
payload
angle [12]
01
step [13]
02
channel [14]
07
sample format [15] (0x0a = packed 10-bit)
0a
sample group [16:26] -> eight samples, all raw value 1 -> -511 after
offset-binary correction
01 04 10 40 00 01 04 10 40 00
alignment padding [26:28] (partial group, dropped by the unpacker)
00 00
====
CRC [28:32] over bytes [4:28]
68 87 b0 cf
*/

// Command nxbin inspects and converts BYML, AAMP, SARC, and Yaz0
// files. It is a thin CLI over this module's codec packages; all
// the interesting logic lives in byml/, aamp/, sarc/, and yaz0/.
package main

func main() {
	execute()
}

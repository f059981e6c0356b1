// Command arenactl replays allocate/free scripts against a block arena and
// prints the resulting layout.
package main

func main() {
	execute()
}

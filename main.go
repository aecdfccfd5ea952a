package main

import "github.com/ValentinKolb/dBlog/cmd"

func main() {
	cmd.Execute()
}

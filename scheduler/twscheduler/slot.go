package twscheduler

// 槽位, 挂载一个双向定时器链表, 由 timerManager.mu 保护
type slot struct {
	head *timer // 槽位头部的定时器链表
}

// link 将定时器链接到槽位的头部
func (s *slot) link(t *timer) {
	t.slot = s
	t.next = s.head
	if s.head != nil {
		s.head.prev = t
	}
	t.prev = nil
	s.head = t
}

// unlink 将定时器从所在槽位中移除
func (t *timer) unlink() {
	s := t.slot
	if s == nil {
		return
	}
	if t.prev != nil {
		t.prev.next = t.next
	} else {
		s.head = t.next
	}
	if t.next != nil {
		t.next.prev = t.prev
	}
	t.slot, t.prev, t.next = nil, nil, nil
}

// len 返回槽位中的定时器数量
func (s *slot) len() int {
	n := 0
	for t := s.head; t != nil; t = t.next {
		n++
	}
	return n
}

package service

import "sync"

// keyedMutex 키 단위 직렬화 락
// 같은 키의 읽기-수정-쓰기를 직렬화하고 다른 키는 병렬로 진행시킨다.
// 키 공간은 제품 수/투표 쌍 수에 비례하므로 엔트리를 회수하지 않는다.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock 키에 해당하는 락을 잡고 해제 함수를 반환
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
